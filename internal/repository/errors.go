// Package repository implements persistence over MySQL for the
// catalog, bookings, seat claims and seat holds.  Sentinel values
// defined here let handlers distinguish failure scenarios: for example
// ErrConflict signals that a delete cannot proceed because dependent
// records exist (a hall that still has showtimes).
package repository

import (
    "errors"

    "github.com/go-sql-driver/mysql"
)

// ErrEmailExists is returned when registering a user with an email
// address that is already taken.  Handlers translate this into 409.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a hall that still has
// showtimes scheduled.  Handlers translate this into 409.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-key error
// (error number 1062), which the claim and hold inserts rely on for
// their uniqueness guarantees.
func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}
