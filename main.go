package main

import (
	"github.com/tomasbruna/miniprothint/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
