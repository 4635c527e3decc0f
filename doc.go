// Package users implements a standalone user-account and token-issuance
// service: registration, credential login, stateless JWT access/refresh
// pairs, and bearer-protected profile reads and updates.
//
// Accounts:
//   - User records persist via Bun with a unique email, a bcrypt password
//     hash that never leaves the package, and an is_active flag that gates
//     login. Accounts are created only through registration and are never
//     hard-deleted.
//
// Tokens:
//   - TokenService signs HS256 access/refresh pairs. Tokens are
//     self-contained; verification is signature plus expiry, never a store
//     lookup, and refresh tokens mint new access tokens without rotating.
//
// Transport:
//   - Controller registers the JSON routes on a go-router application and
//     middleware/jwtware guards the authenticated ones. Wire both from your
//     own server, or start from cmd/server.
package users
