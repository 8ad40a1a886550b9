package eval

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// StudioURL returns the hosted results page for a run. The workspace
// ID is an Azure resource path containing slashes, which is why studio
// links need encoding before they pass through single-value carriers.
func StudioURL(workspaceID, runID string) string {
	if workspaceID == "" || runID == "" {
		return ""
	}
	return fmt.Sprintf("https://ai.azure.com/build/evaluation/%s?wsid=%s", runID, workspaceID)
}

// urlSafeChars are the reserved URL characters left intact by
// EncodeStudioURL so the encoded link stays recognizable.
const urlSafeChars = ":/?#[]@!$&'()*+,;="

// EncodeStudioURL percent-encodes a studio link for transport through
// single-value carriers such as CI output files. Unreserved and
// reserved URL characters pass through; everything else, including
// spaces, is escaped. Decode with DecodeStudioURL before opening the
// link.
func EncodeStudioURL(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if urlSafeByte(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func urlSafeByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return strings.IndexByte(urlSafeChars, c) >= 0
}

// DecodeStudioURL reverses EncodeStudioURL. An encoded link will not
// resolve in a browser, so decode before use.
func DecodeStudioURL(encoded string) (string, error) {
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return "", fmt.Errorf("error decoding studio link: %w", err)
	}
	return decoded, nil
}

// WriteCIOutput writes the studio link for CI consumption as KEY=value
// pairs, one per line: the percent-encoded link first, then the plain
// one. Consumers of the encoded value must decode it before use.
func WriteCIOutput(w io.Writer, studioURL string) error {
	_, err := fmt.Fprintf(w, "GITHUB_ACTIONS_STUDIO_URL_ENCODED=%s\nAZURE_AI_STUDIO_LINK=%s\n",
		EncodeStudioURL(studioURL), studioURL)
	return err
}

// Reporter emits run results to the console and, optionally, to a CI
// output stream.
type Reporter struct {
	// Out receives the console summary. Defaults to os.Stdout.
	Out io.Writer

	// CI receives the machine-readable studio link lines when set,
	// for example a file named by $GITHUB_OUTPUT.
	CI io.Writer
}

// Report prints the summary banner and the studio link, then emits CI
// output when configured. An empty studioURL falls back to the
// summary's own link; when both are empty the link lines are skipped.
func (r *Reporter) Report(s *Summary, studioURL string) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	if studioURL == "" {
		studioURL = s.StudioURL
	}

	if _, err := fmt.Fprintln(out, s.String()); err != nil {
		return err
	}
	if studioURL != "" {
		if _, err := fmt.Fprintf(out, "Azure AI Foundry Results: %s\n", studioURL); err != nil {
			return err
		}
	}

	if r.CI != nil && studioURL != "" {
		if err := WriteCIOutput(r.CI, studioURL); err != nil {
			return fmt.Errorf("error writing CI output: %w", err)
		}
	}
	return nil
}
