// Package auth holds the types shared by every authentication step: the
// request Identity and the Failure taxonomy.
//
// Subpackages:
//
//   - auth/jwt        token codec: signs and verifies access/refresh tokens
//   - auth/issuer     mints token pairs and rotates refresh tokens
//   - auth/password   bcrypt and argon2id hashing
//   - auth/credential username/password authentication and registration
//   - auth/authctx    identity propagation through context.Context
//
// Every operation returns a *Failure whose Kind is logged and whose AppError
// is what the client sees:
//
//	if errors.Is(err, auth.ErrExpired) { ... }
//	log.Warn("rejected", logger.Fields(logger.FieldFailureKind, auth.KindOf(err)))
package auth
