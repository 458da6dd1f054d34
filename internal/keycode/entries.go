package keycode

// Key codes follow linux/input-event-codes.h. Names are matched after
// normalization (see Resolve); the first name per entry is canonical.
var entries = []entry{
	{1, []string{"esc", "escape"}},
	{2, []string{"1"}},
	{3, []string{"2"}},
	{4, []string{"3"}},
	{5, []string{"4"}},
	{6, []string{"5"}},
	{7, []string{"6"}},
	{8, []string{"7"}},
	{9, []string{"8"}},
	{10, []string{"9"}},
	{11, []string{"0"}},
	{12, []string{"minus", "-"}},
	{13, []string{"equal", "="}},
	{14, []string{"backspace", "bksp"}},
	{15, []string{"tab"}},
	{16, []string{"q"}},
	{17, []string{"w"}},
	{18, []string{"e"}},
	{19, []string{"r"}},
	{20, []string{"t"}},
	{21, []string{"y"}},
	{22, []string{"u"}},
	{23, []string{"i"}},
	{24, []string{"o"}},
	{25, []string{"p"}},
	{26, []string{"leftbrace", "[", "lbracket"}},
	{27, []string{"rightbrace", "]", "rbracket"}},
	{28, []string{"enter", "return"}},
	{29, []string{"leftctrl", "lctrl"}},
	{30, []string{"a"}},
	{31, []string{"s"}},
	{32, []string{"d"}},
	{33, []string{"f"}},
	{34, []string{"g"}},
	{35, []string{"h"}},
	{36, []string{"j"}},
	{37, []string{"k"}},
	{38, []string{"l"}},
	{39, []string{"semicolon", ";"}},
	{40, []string{"apostrophe", "'", "quote"}},
	{41, []string{"grave", "`", "tilde"}},
	{42, []string{"leftshift", "lshift"}},
	{43, []string{"backslash", `\`}},
	{44, []string{"z"}},
	{45, []string{"x"}},
	{46, []string{"c"}},
	{47, []string{"v"}},
	{48, []string{"b"}},
	{49, []string{"n"}},
	{50, []string{"m"}},
	{51, []string{"comma", ","}},
	{52, []string{"dot", ".", "period"}},
	{53, []string{"slash", "/"}},
	{54, []string{"rightshift", "rshift"}},
	{55, []string{"kpasterisk", "keypadasterisk", "kpmultiply", "kpmul"}},
	{56, []string{"leftalt", "lalt"}},
	{57, []string{"space"}},
	{58, []string{"capslock", "caps"}},
	{59, []string{"f1"}},
	{60, []string{"f2"}},
	{61, []string{"f3"}},
	{62, []string{"f4"}},
	{63, []string{"f5"}},
	{64, []string{"f6"}},
	{65, []string{"f7"}},
	{66, []string{"f8"}},
	{67, []string{"f9"}},
	{68, []string{"f10"}},
	{69, []string{"numlock", "num"}},
	{70, []string{"scrolllock", "scroll"}},
	{71, []string{"kp7", "keypad7"}},
	{72, []string{"kp8", "keypad8"}},
	{73, []string{"kp9", "keypad9"}},
	{74, []string{"kpminus", "keypadminus", "kpsubtract", "kpsub"}},
	{75, []string{"kp4", "keypad4"}},
	{76, []string{"kp5", "keypad5"}},
	{77, []string{"kp6", "keypad6"}},
	{78, []string{"kpplus", "keypadplus", "kpadd"}},
	{79, []string{"kp1", "keypad1"}},
	{80, []string{"kp2", "keypad2"}},
	{81, []string{"kp3", "keypad3"}},
	{82, []string{"kp0", "keypad0"}},
	{83, []string{"kpdot", "keypaddot", "kpdecimal", "kpperiod"}},
	{85, []string{"zenkakuhankaku"}},
	{86, []string{"102nd"}},
	{87, []string{"f11"}},
	{88, []string{"f12"}},
	{89, []string{"ro"}},
	{90, []string{"katakana"}},
	{91, []string{"hiragana"}},
	{92, []string{"henkan"}},
	{93, []string{"katakanahiragana"}},
	{94, []string{"muhenkan"}},
	{95, []string{"kpjpcomma", "keypadjpcomma"}},
	{96, []string{"kpenter", "keypadenter"}},
	{97, []string{"rightctrl", "rctrl"}},
	{98, []string{"kpslash", "keypadslash", "kpdivide", "kpdiv"}},
	{99, []string{"sysrq", "printscreen", "prtscr"}},
	{100, []string{"rightalt", "ralt", "altgr"}},
	{101, []string{"linefeed"}},
	{102, []string{"home"}},
	{103, []string{"up", "uparrow"}},
	{104, []string{"pageup", "pgup"}},
	{105, []string{"left", "leftarrow"}},
	{106, []string{"right", "rightarrow"}},
	{107, []string{"end"}},
	{108, []string{"down", "downarrow"}},
	{109, []string{"pagedown", "pgdn"}},
	{110, []string{"insert", "ins"}},
	{111, []string{"delete", "del"}},
	{113, []string{"mute"}},
	{114, []string{"volumedown"}},
	{115, []string{"volumeup"}},
	{116, []string{"power"}},
	{117, []string{"kpequal", "keypadequal"}},
	{118, []string{"kpplusminus", "keypadplusminus"}},
	{119, []string{"pause", "pausebreak"}},
	{121, []string{"kpcomma", "keypadcomma"}},
	{123, []string{"hanja"}},
	{124, []string{"yen"}},
	{125, []string{"leftmeta", "lmeta", "leftwindows", "lwin", "leftsuper", "lsuper"}},
	{126, []string{"rightmeta", "rmeta", "rightwindows", "rwin", "rightsuper", "rsuper"}},
	{127, []string{"compose"}},
	{128, []string{"stop"}},
	{129, []string{"again"}},
	{130, []string{"props"}},
	{131, []string{"undo"}},
	{132, []string{"front"}},
	{133, []string{"copy"}},
	{134, []string{"open"}},
	{135, []string{"paste"}},
	{136, []string{"find"}},
	{137, []string{"cut"}},
	{138, []string{"help"}},
	{139, []string{"menu", "appmenu"}},
	{140, []string{"calc", "calculator"}},
	{141, []string{"setup"}},
	{142, []string{"sleep"}},
	{143, []string{"wakeup"}},
	{144, []string{"file"}},
	{150, []string{"www"}},
	{155, []string{"mail"}},
	{156, []string{"bookmarks"}},
	{157, []string{"computer"}},
	{158, []string{"back"}},
	{159, []string{"forward"}},
	{161, []string{"ejectcd", "eject"}},
	{163, []string{"nextsong"}},
	{164, []string{"playpause"}},
	{165, []string{"previoussong"}},
	{166, []string{"stopcd"}},
	{167, []string{"record"}},
	{168, []string{"rewind"}},
	{169, []string{"phone"}},
	{172, []string{"homepage"}},
	{173, []string{"refresh"}},
	{174, []string{"exit"}},
	{177, []string{"scrollup"}},
	{178, []string{"scrolldown"}},
	{179, []string{"kpleftparen", "keypadleftparen"}},
	{180, []string{"kprightparen", "keypadrightparen"}},
	{183, []string{"f13"}},
	{184, []string{"f14"}},
	{185, []string{"f15"}},
	{186, []string{"f16"}},
	{187, []string{"f17"}},
	{188, []string{"f18"}},
	{189, []string{"f19"}},
	{190, []string{"f20"}},
	{191, []string{"f21"}},
	{192, []string{"f22"}},
	{193, []string{"f23"}},
	{194, []string{"f24"}},
	{200, []string{"playcd"}},
	{201, []string{"pausecd"}},
	{210, []string{"print"}},
	{212, []string{"camera"}},
	{217, []string{"search"}},
	{224, []string{"brightnessdown"}},
	{225, []string{"brightnessup"}},
	{228, []string{"kbdillumtoggle", "keyboardilluminationtoggle"}},
	{229, []string{"kbdillumdown", "keyboardilluminationdown"}},
	{230, []string{"kbdillumup", "keyboardilluminationup"}},
	{248, []string{"micmute"}},
	{0x1d0, []string{"fn"}},
	{0x1d1, []string{"fnesc"}},
}
