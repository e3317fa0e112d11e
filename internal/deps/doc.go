// Package deps checks the availability of external binaries cardpress
// shells out to.
package deps
