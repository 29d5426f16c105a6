// Command subvault is the CLI for the subtitle daemon: fetching subtitles,
// inspecting popularity, searching the media catalog, and managing
// configuration.
package main
