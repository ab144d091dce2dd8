package main

import "github.com/oshokin/alarm-clock/cmd/alarm-ctl/cmd"

func main() {
	cmd.Execute()
}
