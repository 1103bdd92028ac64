package main

import (
	"github.com/structscan/structscan/cmd/structscan/commands"
)

func main() {
	commands.Execute()
}
