// Package assembler turns a documentation record into an ordered sequence of
// render instructions.
//
// It owns every decision about the document's structure: which sections are
// emitted, in which order, under which number, and how each field of the
// record is laid out as titles, subheadings, paragraphs, bullets, code blocks
// and tables. It owns nothing about appearance; instructions carry style tags
// only.
//
// Assembly happens in two steps:
//
//	plan := Plan(rec)        // which sections, numbered 1..K
//	doc  := render(plan)     // instructions for each planned section
//
// Plan is a fold over the canonical section list. Each entry carries an
// inclusion predicate, and the running section number is the accumulator of
// the fold, so numbering cannot drift from emission order.
//
// Assemble performs no I/O and keeps no state between calls. It is safe to
// call concurrently on distinct records.
package assembler
