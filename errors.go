/*
 * errors.go, part of qfield.
 *
 *
 * Copyright 2024 The qfield authors
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
 */

package qfield

import (
	"context"
	"errors"
	"strings"
)

//Errors

//Decorator is the interface for errors that all packages in this library return. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
type Decorator interface {
	Error() string
	Decorate(string) []string //Each call returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it just returns the current value.
	Critical() bool
}

//Error is the error type used in qfield. Besides the message, it keeps a list of the functions
//the error went through, and whether the calculation that produced it had to stop.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//NewError returns a new *Error with the given message, criticality and decoration.
func NewError(message string, critical bool, deco ...string) *Error {
	d := make([]string, 0, len(deco)+2)
	d = append(d, deco...)
	return &Error{message: message, deco: d, critical: critical}
}

//Error returns a string with an error message.
func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return err.message
	}
	//the last function to decorate is the outermost, so we print in reverse.
	d := make([]string, 0, len(err.deco)+1)
	for i := len(err.deco) - 1; i >= 0; i-- {
		d = append(d, err.deco[i])
	}
	d = append(d, err.message)
	return strings.Join(d, ": ")
}

//Message returns the undecorated message.
func (err *Error) Message() string { return err.message }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err *Error) Critical() bool { return err.critical }

//ErrDecorate decorates err with the caller's name before returning it. If err doesn't
//implement Decorator, it is turned into a critical *Error with the same message.
//A nil err returns nil, and cancellation errors from a context are returned unchanged.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if e, ok := err.(Decorator); ok {
		e.Decorate(caller)
		return e
	}
	return NewError(err.Error(), true, caller)
}
