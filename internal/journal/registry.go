package journal

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/vcaputo/jio/internal/ioq"
	"github.com/vcaputo/jio/internal/jioerr"
)

// JournalSet is a host's collection of journal files (spec §3
// "JournalSet"): the directory handle they were opened from, the
// journals themselves in enumeration order, and open-attempt counters.
type JournalSet struct {
	dir *os.File

	Journals  []*Journal
	Opened    int
	Attempted int
}

// OpenJournalSet enumerates and opens every journal file under
// root/hostID, per spec §4.3 "open_journal_set". Permission-denied
// opens are logged and skipped rather than failing the whole set;
// any other open error is fatal.
func OpenJournalSet(ctx context.Context, eng *ioq.Engine, root, hostID string) (*JournalSet, error) {
	rootDir, err := os.Open(root)
	if err != nil {
		return nil, err
	}
	defer rootDir.Close()

	hostDir, err := eng.OpenAt(ctx, rootDir, hostID, os.O_RDONLY)
	if err != nil {
		return nil, err
	}

	names, err := enumerate(hostDir)
	if err != nil {
		hostDir.Close()
		return nil, err
	}

	set := &JournalSet{dir: hostDir}
	if len(names) == 0 {
		return set, nil
	}

	eng.Resize(len(names))

	set.Journals = make([]*Journal, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			f, err := eng.OpenAt(gctx, hostDir, name, os.O_RDONLY)
			if err != nil {
				if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) || os.IsPermission(err) {
					logrus.WithField("journal", name).Warn("permission denied opening journal, ignoring")
					set.Journals[i] = &Journal{Name: name, Index: i, eng: eng, cache: NewReadCache()}
					return nil
				}
				return err
			}
			set.Journals[i] = &Journal{Name: name, Index: i, file: f, eng: eng, cache: NewReadCache()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// errgroup.Wait blocks until every open has completed, so attempted
	// always equals the total here — matching spec §4.3 step 8's
	// "when attempted == total" gate without needing a live counter.
	set.Attempted = len(names)
	for _, j := range set.Journals {
		if !j.Skipped() {
			set.Opened++
		}
	}

	return set, nil
}

// enumerate lists dir's entries, skipping dot-files, sorted for
// deterministic registration order — spec §4.3 step 2 sanctions a
// single growable-sequence pass in place of the source's two-pass
// count-then-record.
func enumerate(dir *os.File) ([]string, error) {
	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Close releases the set's directory handle. It does not close the
// individual journal file handles.
func (s *JournalSet) Close() error {
	if s.dir == nil {
		return nil
	}
	return s.dir.Close()
}

// ForEachJournal runs visit once per journal whose open succeeded,
// skipping any permission-denied sentinel (spec §4.3 "for_each_journal"),
// each as an independent chain via ioq.Run so that one journal's
// failure can't stop another's from completing (spec §5: "completions
// interleave freely"; §4.5/§7: a Format error marks only the offending
// file unreachable, not the whole set). A Format error from visit is
// logged and treated as that journal's normal completion; any other
// error still halts the run and is returned.
func ForEachJournal(ctx context.Context, s *JournalSet, visit func(*Journal) error) error {
	var tasks []func(context.Context) error
	for _, j := range s.Journals {
		if j.Skipped() {
			continue
		}
		j := j
		tasks = append(tasks, func(context.Context) error {
			if err := visit(j); err != nil {
				if errors.Is(err, jioerr.ErrFormat) {
					logrus.WithField("journal", j.Name).Warnf("skipping rest of journal after format error: %v", err)
					return nil
				}
				return err
			}
			return nil
		})
	}
	return ioq.Run(ctx, tasks...)
}
