// Package auth is the identity store: accounts, credential checks and the
// session tokens minted from them.
//
// Passwords are validated in plaintext (at least 8 letters/digits with one
// of each), then stored only as Argon2id PHC strings. Email addresses are
// globally unique; the check runs before every create or email change and
// the UNIQUE index backs it up under concurrent writers.
//
// Service is the entry point:
//
//	svc := auth.NewService(auth.NewAccountRepository(db.DB))
//	id, err := svc.Create(ctx, "John", "Doe", "jd@mail.com", "123123ab")
//	id, err = svc.Authenticate(ctx, "jd@mail.com", "123123ab")
//	token, err := auth.GenerateAccessToken(id, secret, ttlMinutes)
//
// Every account id passed to other packages comes from an explicit argument;
// there is no ambient "current user".
package auth
