// Package identity reconciles local and federated logins to a single durable
// account record and issues signed bearer tokens for downstream services.
//
// Account resolution:
//   - AccountResolver maps a canonical identity string (an email for local
//     accounts, a provider-derived email or synthesized fallback for federated
//     ones) to an Account, provisioning a record on first sight. Repeated
//     federated logins are no-ops against storage; concurrent first logins are
//     reconciled through the store's uniqueness constraint plus a single
//     read-after-conflict retry.
//
// Tokens:
//   - TokenService assembles claims (subject, role names, issued-at, expiry),
//     signs them with HMAC-SHA256, and performs the inverse: parse, signature
//     and expiry checks, claim extraction. Malformed, tampered, and expired
//     tokens all collapse to the same ErrInvalidToken so callers cannot learn
//     why verification failed.
//
// Orchestration:
//   - Auther coordinates a login attempt over the two paths (credential check
//     for local logins, provider-profile resolution for federated ones) and a
//     token-introspection path for already-issued tokens. Roles resolve to
//     authorities compared by exact string equality during authorization checks.
package identity
