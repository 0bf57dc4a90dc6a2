// Package credstore abstracts secure credential storage.
//
// Production code depends on the Store interface; the concrete backend is
// selected by driver name through NewFromDriver. The keyring driver uses the
// OS-native secure store, the file driver keeps an AES-sealed file for
// platforms without one, and the memory driver backs tests.
package credstore
