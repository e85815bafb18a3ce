package main

import (
	"github.com/nguyentranbao-ct/community-worker/cmd"
)

func main() {
	cmd.Execute()
}
