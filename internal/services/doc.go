// Package services defines the [Source] and [Destination] interfaces of a liked-songs sync and implements them for
// YouTube Music and Notion.
//
// # YouTube Music Implementation
//
// [YouTubeService] communicates with the FastAPI proxy server wrapping ytmusicapi.
//
// The proxy handles YouTube Music authentication complexities and pages through the liked-songs playlist itself.
// Credentials are sent on each request, either as a base64 encoded JSON blob in the X-Auth-Json header or as a
// path readable by the proxy in the X-Auth-File header.
//
// [APIService] makes raw requests against the same proxy (health checks, browser credential setup).
//
// # Notion Implementation
//
// [NotionService] reads and appends rows of one database. The integration token is attached by an
// [oauth2.Transport] built from a static token source, so requests never handle the Authorization header directly.
//
// Database queries are paged with a continuation cursor; [NotionService.QueryRows] follows cursors until none is
// returned and refuses a cursor it has already seen.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : neither auth_json nor auth_file configured
//   - [shared.ErrInvalidCredentials] : auth_json is not valid JSON
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrMalformedResponse] : a 2xx body that does not have the expected shape
//
// Notion error objects ({"object": "error"}) are returned as [*NotionError], which also matches [shared.ErrAPIRequest].
//
// # API Mappings
//
// Both services convert provider-specific JSON to the types in models:
//   - YouTube: [YouTubeTrack] → [models.Track]
//   - Notion: page properties → [models.Row]; [models.Track] → [PagePayload] via [BuildPagePayload]
package services
