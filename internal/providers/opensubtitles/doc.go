// Package opensubtitles wraps the OpenSubtitles REST API: subtitle search,
// download negotiation, and account quota queries. The client carries the
// API key, optional user token, and User-Agent on every request.
package opensubtitles
