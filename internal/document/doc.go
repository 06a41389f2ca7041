// Package document provides the in-memory text document that tidytype edits.
//
// A Buffer holds the document text, a single selection and a revision
// counter. Positions are expressed as line/column Points; columns are byte
// offsets within a line. All methods are safe for concurrent use, so a
// renderer may read the buffer while a playback session mutates it.
//
// Content is stored with LF line endings. The line ending detected when the
// document was loaded is restored by WriteTo.
package document
