// Package resources provides MCP resources for exposing calendar data.
// Resources are read-only data sources that MCP clients can fetch directly,
// such as the calendar list and the color palette.
package resources
