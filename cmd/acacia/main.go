// Command acacia compiles an Acacia source file into a Minecraft Bedrock
// .mcfunction datapack (spec.md §6.1).
package main

import "github.com/CBerJun/acacia/pkg/cmd"

func main() {
	cmd.Execute()
}
