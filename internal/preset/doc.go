// Package preset resolves named alarm times, such as "workday" -> 07:00,
// from a table configured by the user.
package preset
