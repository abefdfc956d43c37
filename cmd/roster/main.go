package main

import (
	"log"
	"os"
	"runtime/debug"

	_ "github.com/lib/pq"

	"github.com/rosterhq/roster/pkg/configuration"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		configuration.Use().Unload()
		os.Exit(1)
	}
}
