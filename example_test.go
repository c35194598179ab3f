package notepad_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aretw0/notepad"
	"github.com/aretw0/notepad/pkg/adapters/memory"
	"github.com/aretw0/notepad/pkg/core"
)

// Example_basic demonstrates how to open a notes root, append entries and read them back.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "notepad-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	svc, err := notepad.New(tmpDir, notepad.WithExportDir(tmpDir))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for _, content := range []string{"Find the forest key", "Talk to the owl"} {
		if _, err := svc.AppendEntry(ctx, "Quests", content, "Zelda"); err != nil {
			log.Fatal(err)
		}
	}

	pad, err := svc.Read(ctx, "Quests", "Zelda")
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range pad.Entries {
		fmt.Printf("[%d] %s\n", e.ID, e.Content)
	}
	// Output:
	// [1] Find the forest key
	// [2] Talk to the owl
}

// Example_clearAndUndo shows that a clear can be reverted with Undo.
func Example_clearAndUndo() {
	clock := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	svc, err := notepad.New("",
		notepad.WithStorage(memory.NewStorage()),
		notepad.WithSink(memory.NewSink()),
		notepad.WithClock(clock),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	_, _ = svc.AppendEntry(ctx, "Builds", "Redstone clock", "Minecraft")
	_, _ = svc.AppendEntry(ctx, "Seeds", "-4172144997902289642", "Minecraft")

	cleared, err := svc.Clear(ctx, core.ScopeGame, "Minecraft")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("cleared:", cleared.Count())

	pads, _ := svc.List(ctx, "Minecraft")
	fmt.Println("left:", len(pads))

	restored, err := svc.Undo(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("restored:", restored.Count())
	// Output:
	// cleared: 2
	// left: 0
	// restored: 2
}
