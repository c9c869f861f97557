package shell

import (
	"github.com/ezrec/ias/translate"
)

var f = translate.From

// ErrCommand is returned for a malformed shell command.
type ErrCommand string

func (err ErrCommand) Error() string {
	return f("'%v' command invalid, try 'help'", string(err))
}

// ErrNumber is returned for a malformed number.
type ErrNumber string

func (err ErrNumber) Error() string {
	return f("'%v' is not a number", string(err))
}
