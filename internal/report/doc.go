// Package report renders an assembled document to an output format.
//
// This package contains writers (sinks) for different output formats:
//   - TextWriter: plain text for terminal display
//   - MarkdownWriter: GitHub-flavored Markdown for repositories and wikis
//   - HTMLWriter: a standalone HTML page with inline styles
//   - JSONWriter: the raw instruction sequence for tool integration
//
// Design decision: Writers never look at the documentation record. They
// walk the instruction sequence produced by the assembler and map each
// instruction to their format, resolving style tags through a
// style.Provider when the format can express visual attributes. All
// structural decisions (which sections exist, how they are numbered) were
// already made upstream, so every format shows the same document.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
