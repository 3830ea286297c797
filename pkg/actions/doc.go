// Package actions implements the side actions offered on code suggestions:
// copying the code to the clipboard and saving it to a file.
package actions
