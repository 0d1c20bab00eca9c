// Package services defines the [SourceGateway] and [TargetGateway] interfaces
// for the two comic servers and implements them for Mylar3 and Kapowarr.
//
// # Gateway Interfaces
//
// The migration engine only ever talks to the two interfaces, so both sides
// can be swapped for test doubles.
//
// # Mylar Implementation
//
// [MylarService] speaks Mylar's command-style API: a single /api endpoint
// where the command name and the api key travel as query parameters and every
// JSON response is a {success, data} envelope. Series records come back as
// raw maps because field names vary across Mylar generations (getIndex,
// getComics, getSeries); normalization lives in the matcher package.
//
// Issue downloads stream the file itself. Failures are misreported as a 200
// with a JSON body, so the content type decides whether the stream is a file.
//
// # Kapowarr Implementation
//
// [KapowarrService] speaks Kapowarr's REST-ish API under /api/ with the api
// key as an api_key query parameter and {result, error} response envelopes.
// Volume creation maps the server's VolumeAlreadyAdded error to
// [shared.ErrVolumeExists] so callers can treat it as a normal outcome.
// Rescan and rename are fire-and-forget task submissions to
// POST /api/system/tasks.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrServiceUnavailable] : transport failure
//   - [shared.ErrAPIRequest] : non-2xx response
//   - [shared.ErrMalformedResponse] : non-JSON where JSON was expected
//   - [shared.ErrAuthFailed] : Kapowarr rejected the api key
//   - [shared.ErrVolumeExists] : volume already tracked
//   - [shared.ErrNoFileAvailable] : issue has no downloadable file
package services
