// Package httpapp provides the HTTP server for the vouch board.
//
//	@title						Vouch Board API
//	@version					1.0
//	@description				A community vouch bulletin board: post short endorsements or
//	@description				scam warnings about a username. Submissions are moderated,
//	@description				deduplicated per IP and username, and rate limited to 3 per
//	@description				hour per IP.
//	@description
//	@description				A successful submission returns a `session_id` that grants
//	@description				edit and delete rights over that vouch for 30 minutes. The
//	@description				session endpoints take the caller's own IP in the request
//	@description				body and compare it against the address recorded at
//	@description				submission time.
//	@description
//	@description				```bash
//	@description				curl -X POST /vouch -H 'username: Steve' \
//	@description				  -d '{"message":"traded fair, fast payment","type":"vouch"}'
//	@description				```
//
//	@contact.name				Vouch Board
//
//	@BasePath					/
package httpapp
