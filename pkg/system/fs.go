package system

import "github.com/spf13/afero"

// AppFs is the filesystem every component reads and writes through.
// Tests replace it with afero.NewMemMapFs().
var AppFs afero.Fs = afero.NewOsFs()
