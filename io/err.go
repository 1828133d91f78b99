package io

import (
	"errors"

	"github.com/ezrec/sim86/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageSize = errors.New(f("image larger than capacity"))
)
