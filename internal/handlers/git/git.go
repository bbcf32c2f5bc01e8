// Package git serves papers from a git repository that mirrors the archive.
//
// The repository is fetched shallowly into a bare cache under
// $XDG_CACHE_HOME/spp/git (or ~/.cache/spp/git) and the document is read
// straight from the tree at source.ref: "<source.path>/<identifier>.pdf".
package git

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	gittransport "github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	xssh "golang.org/x/crypto/ssh"

	"github.com/yanNotDev/search-past-papers/internal/registry"
)

type handler struct{}

func New() *handler             { return &handler{} }
func (h *handler) Name() string { return "git" }

func (h *handler) Fetch(ctx context.Context, src registry.Source, id string) ([]byte, error) {
	repoURL, refName, filePath, err := parseGitSource(src, id)
	if err != nil {
		return nil, err
	}

	repo, err := ensureRepo(repoURL)
	if err != nil {
		return nil, fmt.Errorf("git: %s: %w: %v", repoURL, registry.ErrTransport, err)
	}

	if err := fetchHeadsAndTags(ctx, repoURL, repo); err != nil {
		return nil, fmt.Errorf("git: %s: %w: %v", repoURL, registry.ErrTransport, err)
	}

	commit, err := resolveRefCommit(repo, refName)
	if err != nil {
		return nil, err
	}

	r, err := blobAtCommit(commit, filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// --- helpers ---

func parseGitSource(src registry.Source, id string) (repoURL string, ref plumbing.ReferenceName, file string, err error) {
	if src.URL == "" || src.Ref == "" {
		return "", "", "", errors.New("git: require source.url and source.ref")
	}
	repoURL = src.URL
	if strings.HasPrefix(src.Ref, "refs/") {
		ref = plumbing.ReferenceName(src.Ref)
	} else {
		// Try branch first; resolveRefCommit will fall back to tag.
		ref = plumbing.NewBranchReferenceName(src.Ref)
	}
	file = path.Join(filepath.ToSlash(src.Path), id+".pdf")
	return repoURL, ref, file, nil
}

func ensureRepo(repoURL string) (*git.Repository, error) {
	cacheDir := filepath.Join(defaultCacheDir(), "git", shortHash(repoURL))
	if _, err := os.Stat(cacheDir); err == nil {
		return git.PlainOpen(cacheDir)
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, err
	}
	repo, err := git.PlainInit(cacheDir, true /* bare */)
	if err != nil {
		return nil, err
	}
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{repoURL}})
	if err != nil && !errors.Is(err, git.ErrRemoteExists) {
		return nil, err
	}
	return repo, nil
}

func fetchHeadsAndTags(ctx context.Context, repoURL string, repo *git.Repository) error {
	auth := gitAuth(repoURL)

	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		Auth:       auth,
		RefSpecs:   []config.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
		Depth:      1,
		Tags:       git.NoTags,
		Force:      true,
	})
	if !isUpToDate(err) {
		return err
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		Auth:       auth,
		RefSpecs:   []config.RefSpec{"+refs/tags/*:refs/tags/*"},
		Depth:      1,
		Tags:       git.AllTags,
		Force:      true,
	})
	// A mirror without tags answers the tag refspec with "no matching ref".
	var noTags git.NoMatchingRefSpecError
	if isUpToDate(err) || errors.As(err, &noTags) {
		return nil
	}
	return err
}

func resolveRefCommit(repo *git.Repository, name plumbing.ReferenceName) (*object.Commit, error) {
	ref, err := repo.Reference(name, true)
	if err != nil {
		// If it's a branch ref, try the remote tracking ref
		if strings.HasPrefix(string(name), "refs/heads/") {
			remoteName := strings.Replace(string(name), "refs/heads/", "refs/remotes/origin/", 1)
			ref, err = repo.Reference(plumbing.ReferenceName(remoteName), true)
		}
		// Then a tag of the same short name
		if err != nil {
			if ref2, err2 := repo.Reference(plumbing.NewTagReferenceName(name.Short()), true); err2 == nil {
				ref, err = ref2, nil
			}
		}
		if err != nil {
			return nil, fmt.Errorf("git: cannot resolve ref %q", name.Short())
		}
	}
	hash := ref.Hash()
	// Peel annotated tags
	if tobj, err := repo.TagObject(hash); err == nil {
		hash = tobj.Target
	}
	return repo.CommitObject(hash)
}

func blobAtCommit(commit *object.Commit, filePath string) (io.ReadCloser, error) {
	t, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	f, err := t.File(filePath)
	if errors.Is(err, object.ErrFileNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
		return nil, fmt.Errorf("git: %s at %s: %w", filePath, commit.Hash.String()[:7], registry.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return f.Blob.Reader()
}

func defaultCacheDir() string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return filepath.Join(v, "spp")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "spp")
}

func shortHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])[:16]
}

func isUpToDate(err error) bool {
	return err == nil || errors.Is(err, git.NoErrAlreadyUpToDate)
}

// NOTE: return type is from plumbing/transport, not github.com/go-git/go-git/v5.
func gitAuth(raw string) gittransport.AuthMethod {
	u, _ := url.Parse(raw)

	// Local paths need no credentials.
	if (u == nil || u.Scheme == "" || u.Scheme == "file") && !strings.Contains(raw, "@") {
		return nil
	}

	// HTTPS (PAT/basic)
	if u != nil && (u.Scheme == "http" || u.Scheme == "https") {
		user := os.Getenv("GIT_USERNAME")
		pass := os.Getenv("GIT_PASSWORD")
		if t := os.Getenv("GIT_TOKEN"); t != "" {
			user, pass = "x-access-token", t
		}
		if user != "" || pass != "" {
			return &githttp.BasicAuth{Username: user, Password: pass}
		}
		return nil
	}

	// SSH: try agent, then key file
	user := "git"
	if u != nil && u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}

	if cb, err := gitssh.NewSSHAgentAuth(user); err == nil {
		cb.HostKeyCallback = xssh.InsecureIgnoreHostKey()
		return cb
	}

	if key := os.Getenv("GIT_SSH_KEY"); key != "" {
		passphrase := os.Getenv("GIT_SSH_PASSPHRASE")
		if pk, err := gitssh.NewPublicKeysFromFile(user, key, passphrase); err == nil {
			pk.HostKeyCallback = xssh.InsecureIgnoreHostKey()
			return pk
		}
	}
	return nil
}
