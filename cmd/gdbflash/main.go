// Gdbflash uploads firmware images into a target's external flash by
// driving an interactive arm-none-eabi-gdb session attached to a remote
// debug stub (OpenOCD, ST-LINK gdbserver).
//
// The heavy lifting is a chunked, checksum-verified upload protocol layered
// on GDB's console: each chunk is staged to disk, restored into a RAM
// buffer on the target, copied into flash by a firmware routine, and
// verified against a host-side checksum before the next chunk is sent.
//
// Prerequisites:
//
//   - arm-none-eabi-gdb installed and in PATH (or --gdb-path)
//   - a GDB server attached to the target (e.g. OpenOCD on localhost:3333)
//   - firmware built with a staging buffer and flash-copy routine
//
// See 'gdbflash --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stmtools/gdbflash/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gdbflash",
	Short: "Firmware flashing over a GDB debug session",
	Long: `Upload firmware into external flash through arm-none-eabi-gdb.

gdbflash drives an interactive GDB session attached to a remote debug stub
and uses its memory-write and remote-call facilities as the transport for a
chunked, checksum-verified upload:
  - each chunk is written into a RAM relay buffer on the target
  - a firmware routine copies it into external flash
  - the routine's checksum is compared against the host's before continuing

Set GDBFLASH_LOG_LEVEL=debug to see the full GDB dialogue.`,
	Version: version.Version,
	Example: `  # Flash a known board
  gdbflash flash firmware.bin --elf app.elf --target stm32u5-dk

  # Flash with explicit symbols
  gdbflash flash firmware.bin --elf app.elf --buffer flash_stage_buffer \
      --copy-func flash_copy_chunk --break-at MX_ThreadX_Init

  # Read back flash content for verification
  gdbflash dump --start 0x90000000 --size 65536 --output readback.bin --elf app.elf`,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gdbflash %s\n", version.Full())
	},
}
