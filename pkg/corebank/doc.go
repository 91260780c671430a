/*
Package corebank provides the client SDK for the core-banking REST API used by
corresponsal terminals. It is the only package allowed to perform network I/O
against the core: every remote operation the terminal needs (login, catalogs,
client search, account/loan/receivable/bill lookup, OTP generation and
verification, transaction commit, history) is a method on Client, and every
outcome is normalized to a (result, error) pair.

# Client

	tokens := ... // TokenStore backed by the terminal's local storage
	client := corebank.NewClient("https://core.bancosur.example", "TERM-0042", tokens)

	res, err := client.Login(ctx, "agent01", "secret")

Every request body carries the implicit device context required by the core:
device identifier, the derived device fingerprint, geolocation coordinates
(falling back to 0,0 when unavailable) and the acting user id.

# Tokens

Successful Login and ActivateDevice calls persist the issued bearer token
through the TokenStore; all other calls attach the currently persisted token
as a bearer credential when present. A missing token is not an error; the
core enforces authorization.

# Errors

Remote failures surface as *APIError with the human-readable message extracted
from a JSON error body ("mensaje" or "message" field) when present, or the raw
response body otherwise. A 2xx response whose body cannot be decoded yields an
error wrapping ErrInvalidResponse. Transport failures are wrapped and returned
as-is. The SDK never retries; callers decide whether to re-invoke after the
user acknowledges the error.
*/
package corebank
