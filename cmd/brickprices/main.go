package main

import (
	"brickprices/cmd/brickprices/commands"
	"context"
	_ "time/tzdata"
)

func main() {
	commands.ExecuteContext(context.Background())
}
