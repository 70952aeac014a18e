package types

// Version is overwritten at build time via -ldflags
var Version = "dev"

// ServiceName is used in health responses and user agents
const ServiceName = "relnotes"

// ReportFileName is the fixed name of the exported document
const ReportFileName = "release-notes.pdf"
