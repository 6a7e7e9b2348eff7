// Package labdoc turns text recovered from lab documents (safety data
// sheets, technical data sheets, certificates of analysis) into structured
// records of named fields and test results. Extraction rules are data: an
// operator can teach new fields from a single highlighted example, and the
// change applies to every later extraction of that document type.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, excelize/, pdfcpu/).
package labdoc
