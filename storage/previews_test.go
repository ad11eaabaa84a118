package storage_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tempchat/model"
	"tempchat/provider/testutil"
	"tempchat/storage"
)

var _ = Describe("PreviewStore", func() {
	var (
		baseDir string
		store   *storage.PreviewStore
	)

	BeforeEach(func() {
		baseDir = GinkgoT().TempDir()

		var err error
		store, err = storage.NewPreviewStore(baseDir, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewPreviewStore", func() {
		It("creates a private session directory", func() {
			info, err := os.Stat(store.Dir())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0700)))
			Expect(filepath.Dir(store.Dir())).To(Equal(baseDir))
		})

		It("starts with no live handles", func() {
			Expect(store.Live()).To(Equal(0))
		})
	})

	Describe("Create", func() {
		It("writes the attachment bytes to a user-only file", func() {
			att := testutil.TestAttachment()

			h, err := store.Create(att)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.IsZero()).To(BeFalse())
			Expect(h.Path).To(HaveSuffix(".png"))

			data, err := os.ReadFile(h.Path)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal(att.Data))

			info, err := os.Stat(h.Path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0600)))

			Expect(store.Live()).To(Equal(1))
			Expect(store.Has(h)).To(BeTrue())
		})

		It("issues a distinct handle per call", func() {
			h1, err := store.Create(testutil.TestAttachment())
			Expect(err).NotTo(HaveOccurred())
			h2, err := store.Create(testutil.TestAttachment())
			Expect(err).NotTo(HaveOccurred())

			Expect(h1.ID).NotTo(Equal(h2.ID))
			Expect(h1.Path).NotTo(Equal(h2.Path))
			Expect(store.Live()).To(Equal(2))
		})

		It("rejects a nil attachment", func() {
			_, err := store.Create(nil)
			Expect(err).To(HaveOccurred())
			Expect(store.Live()).To(Equal(0))
		})
	})

	Describe("Release", func() {
		It("removes the file and forgets the handle", func() {
			h, err := store.Create(testutil.TestAttachment())
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Release(h)).To(Succeed())
			Expect(h.Path).NotTo(BeAnExistingFile())
			Expect(store.Live()).To(Equal(0))
			Expect(store.Has(h)).To(BeFalse())
		})

		It("is a no-op for zero and repeated handles", func() {
			h, err := store.Create(testutil.TestAttachment())
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Release(model.PreviewHandle{})).To(Succeed())
			Expect(store.Release(h)).To(Succeed())
			Expect(store.Release(h)).To(Succeed())
			Expect(store.Live()).To(Equal(0))
		})

		It("tolerates a file removed behind its back", func() {
			h, err := store.Create(testutil.TestAttachment())
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Remove(h.Path)).To(Succeed())

			Expect(store.Release(h)).To(Succeed())
			Expect(store.Live()).To(Equal(0))
		})
	})

	Describe("Close", func() {
		It("releases everything and removes the session directory", func() {
			for i := 0; i < 3; i++ {
				_, err := store.Create(testutil.TestAttachment())
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(store.Close()).To(Succeed())
			Expect(store.Live()).To(Equal(0))
			Expect(store.Dir()).NotTo(BeADirectory())
		})
	})

	Describe("SweepStale", func() {
		It("removes only session directories older than the cutoff", func() {
			// Above any pid_max, so no process can own it
			stale := filepath.Join(baseDir, "session-2147483646-deadbeef")
			Expect(os.MkdirAll(stale, 0700)).To(Succeed())
			old := time.Now().Add(-48 * time.Hour)
			Expect(os.Chtimes(stale, old, old)).To(Succeed())

			unrelated := filepath.Join(baseDir, "keep-me")
			Expect(os.MkdirAll(unrelated, 0700)).To(Succeed())
			Expect(os.Chtimes(unrelated, old, old)).To(Succeed())

			removed, err := storage.SweepStale(baseDir, 24*time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(1))

			Expect(stale).NotTo(BeADirectory())
			Expect(unrelated).To(BeADirectory())
			Expect(store.Dir()).To(BeADirectory())
		})

		It("keeps old directories whose process is still running", func() {
			live := filepath.Join(baseDir, fmt.Sprintf("session-%d-cafebabe", os.Getpid()))
			Expect(os.MkdirAll(live, 0700)).To(Succeed())
			old := time.Now().Add(-48 * time.Hour)
			Expect(os.Chtimes(live, old, old)).To(Succeed())
			Expect(os.Chtimes(store.Dir(), old, old)).To(Succeed())

			removed, err := storage.SweepStale(baseDir, 24*time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(0))

			Expect(live).To(BeADirectory())
			Expect(store.Dir()).To(BeADirectory())
		})

		It("falls back to age for names without a PID", func() {
			odd := filepath.Join(baseDir, "session-legacy")
			Expect(os.MkdirAll(odd, 0700)).To(Succeed())
			old := time.Now().Add(-48 * time.Hour)
			Expect(os.Chtimes(odd, old, old)).To(Succeed())

			removed, err := storage.SweepStale(baseDir, 24*time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(1))
			Expect(odd).NotTo(BeADirectory())
		})

		It("treats a missing base directory as empty", func() {
			removed, err := storage.SweepStale(filepath.Join(baseDir, "nope"), time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(0))
		})
	})
})
