//go:build !linux

package console

import "syscall"

func setProcessMode(int, syscall.Signal, syscall.Signal) error { return ErrNotConsole }

func setAutoMode(int) error { return nil }

func releaseDisplay(int) error { return ErrNotConsole }
