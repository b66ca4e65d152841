// Package pattern implements the ptr89 pattern language.
//
// A pattern describes a run of bytes inside a firmware image, with
// wildcards and decoding instructions:
//
//	AB ?? C? [0101....]         bytes, wildcard nibbles and bits
//	AB CD + 4                   result is four bytes after the match
//	*( AB CD ?? ?? + 2 )        read a pointer at the match
//	&( ?? 48 ?? ?? ) + 1        decode an LDR and read its literal
//	&BL( ?? F? ?? F? )          decode a branch and take its target
//	{ 00 B5 } [ 10 BD ]         the 4- and 2-byte branch slots must lead
//	                            to code matching the nested pattern
//	LDR{ 20 } LDR[ 30 ]         ARM / Thumb literal loads pointing at data
//	"text"                      a pointer to this ASCII text
//	< 1234ABCD >                a constant, no search at all
//
// Parse turns text into an *Expr; Expr.String renders the canonical form.
// Syntax errors are reported as *SyntaxError with a code frame.
package pattern
