package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/qcrbox/shelxcif/internal/cif"
	"github.com/qcrbox/shelxcif/internal/ins"
	"github.com/qcrbox/shelxcif/internal/ledger"
	"github.com/qcrbox/shelxcif/internal/profile"
)

// loadBlock reads a CIF file and returns its first block. Gzipped
// files and legacy single-byte encodings are handled transparently.
func loadBlock(path string) (*cif.Block, error) {
	text, err := ins.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := cif.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	blocks := doc.Blocks()
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%s: file contains no data block", path)
	}
	// legacy dotless entry names are unified so both naming styles work
	return cif.UnifyBlock(blocks[0], []string{"shelx", "iucr"}), nil
}

// writeBlock renders a block as a single-block document to a file.
func writeBlock(path string, block *cif.Block) error {
	doc := cif.NewDocument()
	doc.AddBlock(block)
	return os.WriteFile(path, []byte(cif.Write(doc)), 0o644)
}

// profileCommand loads the profile named by the global flag and looks
// up the command's entry requirements. Without a profile flag both
// returns are zero.
func profileCommand(opts *RootOptions, name string) (profile.Command, bool, error) {
	if opts.Profile == "" {
		return profile.Command{}, false, nil
	}
	p, err := profile.Load(opts.Profile)
	if err != nil {
		return profile.Command{}, false, err
	}
	cmd, ok := p.Command(name)
	if !ok {
		return profile.Command{}, false, fmt.Errorf("profile has no %q command", name)
	}
	return cmd, true, nil
}

// recordRun appends a run to the history database. Ledger failures are
// logged, not fatal: a conversion that worked should not fail because
// the history file is unwritable.
func recordRun(ctx context.Context, opts *RootOptions, run ledger.Run) {
	if opts.NoLedger {
		return
	}
	logger := loggerFromContext(ctx)

	path, err := opts.ledgerPath()
	if err != nil {
		logger.Warn("history not recorded", "err", err)
		return
	}
	l, err := ledger.Open(path)
	if err != nil {
		logger.Warn("history not recorded", "err", err)
		return
	}
	defer l.Close()

	if _, err := l.Record(ctx, run); err != nil {
		logger.Warn("history not recorded", "err", err)
	}
}
