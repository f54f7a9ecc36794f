package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stmtools/gdbflash/internal/flash"
	"github.com/stmtools/gdbflash/internal/logging"
	"github.com/stmtools/gdbflash/internal/session"
	"github.com/stmtools/gdbflash/internal/target"
	"github.com/stmtools/gdbflash/internal/ui"
)

// Command flags
var (
	gdbPath     string
	serverAddr  string
	elfPath     string
	targetName  string
	breakSymbol string
	bufferName  string
	copyFunc    string
	chunkSize   int
	flashOffset string
	assumeYes   bool
	dumpStart   string
	dumpSize    int
	dumpOutput  string
)

func init() {
	// Common flags for all commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&gdbPath, "gdb-path", "arm-none-eabi-gdb", "Path to the GDB binary")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:3333", "GDB server address (host:port)")
	rootCmd.PersistentFlags().StringVar(&elfPath, "elf", "", "Target ELF image (provides symbols to GDB)")

	rootCmd.AddCommand(flashCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(targetsCmd)
}

// openSession builds the session config from the shared flags and performs
// the spawn + handshake.
func openSession(logger *zap.Logger) (*session.Session, error) {
	if elfPath == "" {
		return nil, fmt.Errorf("--elf is required (GDB needs the target's symbols)")
	}

	cfg := session.DefaultConfig()
	cfg.GDBPath = gdbPath
	cfg.ImagePath = elfPath
	cfg.ServerAddr = serverAddr
	return session.Open(cfg, logger)
}

// parseOffset parses a decimal or 0x-prefixed offset flag.
func parseOffset(value string) (uint32, error) {
	v, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", value, err)
	}
	return uint32(v), nil
}

var flashCmd = &cobra.Command{
	Use:   "flash <image>",
	Short: "Upload a firmware image into external flash",
	Long: `Upload a firmware image (raw binary or Intel HEX) into external flash.

The target is reset and run to the staging breakpoint first, so the RAM
relay buffer is safe to overwrite:
  1. monitor reset
  2. break <staging symbol>, continue until it is hit
  3. monitor halt
  4. chunked upload: restore chunk into RAM, call the copy routine,
     verify its checksum against the host's

A --target profile supplies the staging symbol, buffer, copy routine and
chunk size for known boards; individual flags override profile values.`,
	Example: `  gdbflash flash firmware.bin --elf app.elf --target stm32u5-dk
  gdbflash flash firmware.hex --elf app.elf --target stm32u5-dk --flash-offset 0x40000`,
	Args: cobra.ExactArgs(1),
	RunE: runFlash,
}

func init() {
	flashCmd.Flags().StringVar(&targetName, "target", "", "Target profile from the catalogue (see 'gdbflash targets')")
	flashCmd.Flags().StringVar(&breakSymbol, "break-at", "", "Staging symbol to break on before uploading")
	flashCmd.Flags().StringVar(&bufferName, "buffer", "", "RAM buffer symbol used as the chunk relay point")
	flashCmd.Flags().StringVar(&copyFunc, "copy-func", "", "Firmware routine copying the buffer into flash")
	flashCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Transfer unit in bytes (must fit the RAM buffer)")
	flashCmd.Flags().StringVar(&flashOffset, "flash-offset", "", "Start offset in external flash (decimal or 0x hex)")
	flashCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the overwrite confirmation")
}

// resolveFlashParams merges the selected target profile with flag
// overrides. Flags win; whatever is still missing is an error.
func resolveFlashParams() (breakAt, buffer, copyFn string, chunk int, base uint32, err error) {
	if targetName != "" {
		catalogue, cerr := target.Load()
		if cerr != nil {
			return "", "", "", 0, 0, cerr
		}
		profile, ok := catalogue.Get(targetName)
		if !ok {
			return "", "", "", 0, 0, &target.UnknownTargetError{
				Name:      targetName,
				Available: catalogue.Names(),
			}
		}
		breakAt = profile.BreakSymbol
		buffer = profile.BufferName
		copyFn = profile.CopyFunc
		chunk = profile.ChunkSize
		base = profile.FlashBase
	}

	if breakSymbol != "" {
		breakAt = breakSymbol
	}
	if bufferName != "" {
		buffer = bufferName
	}
	if copyFunc != "" {
		copyFn = copyFunc
	}
	if chunkSize != 0 {
		chunk = chunkSize
	}
	if flashOffset != "" {
		base, err = parseOffset(flashOffset)
		if err != nil {
			return "", "", "", 0, 0, err
		}
	}

	switch {
	case breakAt == "":
		err = fmt.Errorf("no staging symbol: use --target or --break-at")
	case buffer == "":
		err = fmt.Errorf("no RAM buffer symbol: use --target or --buffer")
	case copyFn == "":
		err = fmt.Errorf("no copy routine: use --target or --copy-func")
	case chunk <= 0:
		err = fmt.Errorf("no chunk size: use --target or --chunk-size")
	}
	return breakAt, buffer, copyFn, chunk, base, err
}

func runFlash(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	breakAt, buffer, copyRoutine, chunk, base, err := resolveFlashParams()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()

	image, err := flash.LoadImage(imagePath)
	if err != nil {
		return err
	}

	if !assumeYes && !ui.ConfirmFlash(imagePath, len(image), base) {
		return fmt.Errorf("aborted by user")
	}

	runner := ui.NewUploadRunner(ui.UploadRunnerConfig{
		Title:   "Firmware upload",
		Command: "gdbflash flash " + imagePath,
		Params: map[string]string{
			"Server": serverAddr,
			"ELF":    elfPath,
			"Image":  fmt.Sprintf("%s (%s)", imagePath, ui.FormatBytes(len(image))),
			"Buffer": buffer,
			"Copy":   copyRoutine,
			"Chunks": fmt.Sprintf("%d x %s", flash.ChunkCount(len(image), chunk), ui.FormatBytes(chunk)),
			"Offset": fmt.Sprintf("%#x", base),
		},
	}, len(image))
	runner.Start()

	sess, err := openSession(logger)
	if err != nil {
		return runner.Finish(err, nil)
	}
	defer sess.Close()

	// Park the target at the staging hook so the RAM buffer is safe to
	// overwrite.
	if err := sess.Reset(); err != nil {
		return runner.Finish(err, nil)
	}
	if err := sess.SetBreakpoint(breakAt); err != nil {
		return runner.Finish(err, nil)
	}
	if err := sess.Resume(); err != nil {
		return runner.Finish(err, nil)
	}
	if err := sess.Halt(); err != nil {
		return runner.Finish(err, nil)
	}

	uploader := flash.NewUploader(logger)
	err = uploader.Upload(sess, flash.Options{
		SourcePath: imagePath,
		BufferName: buffer,
		ChunkSize:  chunk,
		FlashBase:  base,
		CopyFunc:   copyRoutine,
		OnProgress: func(p flash.Progress) {
			runner.OnProgress(p.ChunkIndex, p.ChunkCount, p.BytesTransferred, p.Elapsed)
		},
	})

	return runner.Finish(err, map[string]string{
		"Image":       imagePath,
		"Transferred": ui.FormatBytes(len(image)),
	})
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Read back a target memory range into a local file",
	Long: `Read target memory into a local file via GDB's dump command.

Useful for verifying flashed content or capturing the previous image before
overwriting it.`,
	Example: `  gdbflash dump --start 0x90000000 --size 65536 --output readback.bin --elf app.elf`,
	RunE:    runDump,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpStart, "start", "", "Start address (decimal or 0x hex)")
	dumpCmd.Flags().IntVar(&dumpSize, "size", 0, "Number of bytes to read")
	dumpCmd.Flags().StringVar(&dumpOutput, "output", "memory.bin", "Output file path")
	_ = dumpCmd.MarkFlagRequired("start")
	_ = dumpCmd.MarkFlagRequired("size")
}

func runDump(cmd *cobra.Command, args []string) error {
	start, err := parseOffset(dumpStart)
	if err != nil {
		return err
	}
	if dumpSize <= 0 {
		return fmt.Errorf("--size must be positive, got %d", dumpSize)
	}

	logger, err := logging.NewFromEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sess, err := openSession(logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Halt(); err != nil {
		return err
	}

	began := time.Now()
	if err := sess.DumpMemory(dumpOutput, start, start+uint32(dumpSize)); err != nil {
		return err
	}

	fmt.Printf("Dumped %s from %#x to %s in %s\n",
		ui.FormatBytes(dumpSize), start, dumpOutput,
		time.Since(began).Round(time.Millisecond))
	return nil
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List known target profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogue, err := target.Load()
		if err != nil {
			return err
		}

		for _, p := range catalogue.Profiles {
			fmt.Println(p)
			fmt.Printf("    break: %s  buffer: %s  copy: %s  chunk: %s  offset: %#x\n",
				p.BreakSymbol, p.BufferName, p.CopyFunc,
				ui.FormatBytes(p.ChunkSize), p.FlashBase)
			if p.Notes != "" {
				fmt.Printf("    %s\n", p.Notes)
			}
		}
		return nil
	},
}
