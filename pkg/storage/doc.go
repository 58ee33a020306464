// Package storage lays out downloaded C2DB files on disk.
//
// Each material gets its own directory named after its slug, holding one
// file per download kind:
//
//	<output>/<slug>/<slug>.json
//	<output>/<slug>/<slug>.cif
//
// Features:
//   - Atomic file writes using temporary files and rename
//   - Presence checks that go straight to the filesystem, so a file removed
//     mid-run is fetched again on the next run
//
// Usage:
//
//	manager, err := storage.NewManager("downloads/c2db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if !manager.Exists(slug, models.KindJSON) {
//	    if err := manager.EnsureItemDir(slug); err != nil {
//	        return err
//	    }
//	    _, err = manager.Save(body, slug, models.KindJSON)
//	}
package storage
