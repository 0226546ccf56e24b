// Package rtftext encodes text and binary data for inclusion in an RTF
// stream.
//
// Escape converts a Go string into RTF text:
//
//	rtftext.Escape(`a{b}\c`)   // a\{b\}\\c
//	rtftext.Escape("café")     // caf\'e9
//	rtftext.Escape("שלום")      // \u1513?\u1500?\u1493?\u1501?
//
// Characters that exist in Windows-1252 (the document code page) are
// written as \'hh escapes; everything else is written as a \uN? escape with
// a question mark as the ANSI fallback. Characters outside the Basic
// Multilingual Plane are written as a UTF-16 surrogate pair.
//
// HexLines writes binary data as lines of lowercase hexadecimal digits, the
// form RTF expects inside a \pict group.
package rtftext
