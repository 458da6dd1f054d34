// Package main provides the CLI entrypoint for keyosd.
package main

func main() {
	Execute()
}
