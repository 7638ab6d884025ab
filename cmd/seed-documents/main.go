package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/johnquangdev/oncovoice/internal/infrastructure/storage"
	"github.com/johnquangdev/oncovoice/pkg/config"
)

// Uploads every PDF in -dir to object storage so catalog document URLs resolve.
func main() {
	dir := flag.String("dir", "documents", "directory containing reference PDFs")
	prefix := flag.String("prefix", "documents", "object name prefix")
	force := flag.Bool("force", false, "upload even when an object of the same size exists")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*"))
	if err != nil {
		log.Fatalf("Failed to list %s: %v", *dir, err)
	}
	sort.Strings(files)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	existing, err := client.ObjectSizes(ctx, *prefix+"/")
	if err != nil {
		log.Fatalf("Failed to list existing documents: %v", err)
	}

	uploaded, skipped := 0, 0
	for _, file := range files {
		if !strings.EqualFold(filepath.Ext(file), ".pdf") {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			log.Fatalf("❌ failed to stat %s: %v", file, err)
		}
		name := objectName(*prefix, file)
		if !needsUpload(existing, name, info.Size(), *force) {
			log.Printf("⏭️ %s already stored", name)
			skipped++
			continue
		}
		if err := seed(ctx, client, file, name, info.Size()); err != nil {
			log.Fatalf("❌ %v", err)
		}
		uploaded++
	}

	log.Printf("✅ Uploaded %d document(s) from %s, %d already present", uploaded, *dir, skipped)
}

func objectName(prefix, file string) string {
	return path.Join(prefix, filepath.Base(file))
}

// needsUpload reports whether the local file differs from what the bucket holds
func needsUpload(existing map[string]int64, name string, size int64, force bool) bool {
	if force {
		return true
	}
	stored, ok := existing[name]
	return !ok || stored != size
}

func seed(ctx context.Context, client *storage.MinIOClient, file, name string, size int64) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	obj, err := client.Put(ctx, name, f, size, "application/pdf")
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", file, err)
	}

	log.Printf("📄 %s -> %s", filepath.Base(file), obj.URL)
	return nil
}
