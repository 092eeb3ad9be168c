package main

import "upkeep/internal/upkeep"

func main() {
	upkeep.Main()
}
