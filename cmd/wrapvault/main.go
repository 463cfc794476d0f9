package main

import (
	"wrapvault/cmd/wrapvault/sub"
)

func main() {
	sub.Execute()
}
