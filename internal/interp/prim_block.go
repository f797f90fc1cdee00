package interp

import (
	"errors"
	"sort"

	"mooers.net/trac64/internal/form"
)

var errNoStore = errors.New("no block store configured")

// primSB persists the whole form store into the named block. The block
// name is the only addressing mechanism.
func primSB(in *Interp, args []string) (string, bool, error) {
	if in.store == nil {
		return "", false, &StorageError{Op: "save", Block: args[0], Err: errNoStore}
	}
	names := make([]string, 0, len(in.forms))
	for name := range in.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	imgs := make([]form.Image, 0, len(names))
	for _, name := range names {
		imgs = append(imgs, in.forms[name].Image(name))
	}
	if err := in.store.SaveAll(args[0], imgs); err != nil {
		return "", false, &StorageError{Op: "save", Block: args[0], Err: err}
	}
	return "", false, nil
}

// primFB replaces the form store with the named block's contents.
func primFB(in *Interp, args []string) (string, bool, error) {
	if in.store == nil {
		return "", false, &StorageError{Op: "fetch", Block: args[0], Err: errNoStore}
	}
	imgs, err := in.store.LoadAll(args[0])
	if err != nil {
		return "", false, &StorageError{Op: "fetch", Block: args[0], Err: err}
	}
	in.forms = make(map[string]*form.Form, len(imgs))
	for _, img := range imgs {
		in.forms[img.Name] = form.FromImage(img)
	}
	return "", false, nil
}

func primEB(in *Interp, args []string) (string, bool, error) {
	if in.store == nil {
		return "", false, &StorageError{Op: "erase", Block: args[0], Err: errNoStore}
	}
	if err := in.store.Erase(args[0]); err != nil {
		return "", false, &StorageError{Op: "erase", Block: args[0], Err: err}
	}
	return "", false, nil
}
