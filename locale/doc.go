// Package locale maps locales to the reading direction and Windows language
// identifier (Lcid) used by an RTF document.
//
// Locales are BCP 47 tags handled with golang.org/x/text/language:
//
//	tag := language.MustParse("ar-AE")
//	locale.DirectionOf(tag)  // model.RightToLeft
//	locale.LcidOf(tag)       // locale.ArabicUAE
//
// or Lcid values, which know their own tag:
//
//	locale.English.Direction() // model.LeftToRight
package locale
