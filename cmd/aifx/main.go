package main

import (
	"fmt"
	"os"
)

// version is stamped at release time via ldflags; default stays dev for local builds.
var version = "0.0.0-dev"

const (
	exitOK               = 0
	exitInvalidInput     = 1
	exitValidationFailed = 2
)

func main() {
	os.Exit(run(os.Args))
}

func run(arguments []string) int {
	exitCode := runDispatch(arguments)
	writeAuditEvent(commandLabel(arguments), exitCode)
	return exitCode
}

func runDispatch(arguments []string) int {
	if len(arguments) < 2 {
		printUsage()
		return exitInvalidInput
	}
	switch arguments[1] {
	case "validate":
		return runValidate(arguments[2:])
	case "pack":
		return runPack(arguments[2:])
	case "version", "--version", "-v":
		fmt.Println("aifx", version)
		return exitOK
	case "help", "--help", "-h":
		printUsage()
		return exitOK
	default:
		printUsage()
		return exitInvalidInput
	}
}

func commandLabel(arguments []string) string {
	if len(arguments) < 2 {
		return "usage"
	}
	command := arguments[1]
	if command == "pack" && len(arguments) > 2 {
		return command + " " + arguments[2]
	}
	return command
}

func printUsage() {
	fmt.Println(`aifx - package and validate AI-generated media containers

Usage:
  aifx validate <path> [--json] [--json-path FILE] [--show-checks] [--show-warnings] [--quiet]
  aifx pack aifv --video FILE --thumb FILE --out PATH [flags]
  aifx pack aifm --audio FILE --out PATH [flags]
  aifx pack aifi --image FILE --out PATH [flags]
  aifx version

Validate exits 0 when every package passes, 2 when any package fails,
and 1 on invalid input.`)
}
