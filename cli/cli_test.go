package cli

import (
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tempchat/config"
	"tempchat/echoserver"
	"tempchat/model"
	"tempchat/provider/testutil"
	"tempchat/ui"
)

// isolateEnv points config and cache at tmpDir and clears the TEMPCHAT_*
// variables until the test finishes
func isolateEnv(tmpDir string) {
	set := func(key, value string) {
		old, had := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(key, old)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	set("TEMPCHAT_CONFIG_DIR", filepath.Join(tmpDir, "config"))
	set("TEMPCHAT_CACHE_DIR", filepath.Join(tmpDir, "cache"))
	for _, key := range []string{"TEMPCHAT_PROVIDER", "TEMPCHAT_ENDPOINT", "TEMPCHAT_MODEL", "TEMPCHAT_TIMEOUT", "TEMPCHAT_DEBUG"} {
		set(key, "")
	}
}

var _ = Describe("Commands", func() {
	var (
		tmpDir string
		out    *bytes.Buffer
		ran    []tea.Model
	)

	newTestRoot := func(args ...string) *cobra.Command {
		cmd := newRootCmd(&rootCommander{
			version: "v9.9.9",
			runProgram: func(m tea.Model) error {
				ran = append(ran, m)
				return nil
			},
		})
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs(args)
		return cmd
	}

	startEchoServer := func(cfg echoserver.Config) string {
		srv := echoserver.New(cfg, zap.NewNop())

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		go func() {
			_ = srv.App().Listener(listener)
		}()
		DeferCleanup(func() {
			_ = srv.Shutdown()
		})

		return "http://" + listener.Addr().String() + echoserver.ChatPath
	}

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		isolateEnv(tmpDir)
		out = &bytes.Buffer{}
		ran = nil
	})

	Describe("version", func() {
		It("prints the version", func() {
			Expect(newTestRoot("version").Execute()).To(Succeed())
			Expect(out.String()).To(Equal("tempchat v9.9.9\n"))
		})
	})

	Describe("send", func() {
		It("prints the backend reply", func() {
			endpoint := startEchoServer(echoserver.Config{})

			err := newTestRoot("send", "--endpoint", endpoint, "hello", "there").Execute()
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("You said: hello there\n"))
		})

		It("sends an attached image", func() {
			endpoint := startEchoServer(echoserver.Config{})
			path := filepath.Join(tmpDir, "pixel.png")
			Expect(os.WriteFile(path, testutil.TestPNG(4, 3), 0o600)).To(Succeed())

			err := newTestRoot("send", "--endpoint", endpoint, "--image", path, "describe").Execute()
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("You said: describe"))
			Expect(out.String()).To(ContainSubstring("You sent an image"))
			Expect(out.String()).To(ContainSubstring("pixel.png"))
		})

		It("prints the fallback reply and fails when the backend errors", func() {
			endpoint := startEchoServer(echoserver.Config{FailStatus: 502})

			err := newTestRoot("send", "--endpoint", endpoint, "hello").Execute()
			Expect(err).To(MatchError(ErrTurnFailed))
			Expect(out.String()).To(ContainSubstring(model.FallbackReply))
		})

		It("degrades to the default reply when the response is missing", func() {
			endpoint := startEchoServer(echoserver.Config{OmitResponse: true})

			Expect(newTestRoot("send", "--endpoint", endpoint, "hello").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring(model.DefaultReply))
		})

		It("treats an empty 200 body as a failed turn", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			DeferCleanup(srv.Close)

			err := newTestRoot("send", "--endpoint", srv.URL, "hello").Execute()
			Expect(err).To(MatchError(ErrTurnFailed))
			Expect(out.String()).To(ContainSubstring(model.FallbackReply))
		})

		It("refuses an empty submission", func() {
			err := newTestRoot("send", "   ").Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("nothing to send"))
		})

		It("rejects a non-image attachment before sending", func() {
			path := filepath.Join(tmpDir, "notes.txt")
			Expect(os.WriteFile(path, []byte("hi"), 0o600)).To(Succeed())

			err := newTestRoot("send", "--image", path, "look").Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Invalid file type"))
		})
	})

	Describe("echo-server", func() {
		It("rejects a non-error fail status before listening", func() {
			err := newTestRoot("echo-server", "--listen", "127.0.0.1:0", "--fail-status", "200").Execute()
			Expect(err).To(MatchError(ContainSubstring("invalid fail status 200")))
			Expect(out.String()).NotTo(ContainSubstring("listening"))
		})
	})

	Describe("root", func() {
		It("launches the chat view and releases previews on exit", func() {
			Expect(newTestRoot("--endpoint", "http://127.0.0.1:1/api/connect-ai/message").Execute()).To(Succeed())

			Expect(ran).To(HaveLen(1))
			Expect(ran[0]).To(BeAssignableToTypeOf(ui.AppView{}))

			entries, err := os.ReadDir(config.GetPreviewDir())
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("shows an error modal for invalid configuration", func() {
			Expect(newTestRoot("--provider", "carrier-pigeon").Execute()).To(Succeed())

			Expect(ran).To(HaveLen(1))
			Expect(ran[0]).To(BeAssignableToTypeOf(ui.ErrorModal{}))
		})
	})
})
