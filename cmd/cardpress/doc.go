// Command cardpress exports card deck manifests to print-ready PDFs.
package main
