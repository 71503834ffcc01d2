package io

import (
	"errors"

	"github.com/ezrec/lcpu/translate"
)

var f = translate.From

var (
	ErrRomTooLarge = errors.New(f("program image larger than memory"))
)
