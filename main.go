package main

import "github.com/khanhnv2901/framecheck/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
