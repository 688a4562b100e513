package web

import _ "embed"

// ReportCSS is the stylesheet inlined into every HTML report, so the report
// stays a single self-contained file.
//
//go:embed static/report.css
var ReportCSS string
