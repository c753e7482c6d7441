// Package domain contains the core entities of the blog: users (credential
// records), the principals projected from them, roles, and posts. It has no
// knowledge of storage or transport.
package domain
