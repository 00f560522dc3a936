// SPDX-License-Identifier: MPL-2.0

// Command rustle swaps core Ubuntu utilities for Rust-based
// alternatives and restores the originals on demand.
package main

import (
	cmd "rustle/cmd/rustle"
)

func main() {
	cmd.Execute()
}
