// Package fasttext drives the fastText command-line tool for supervised
// training, evaluation, prediction and nearest-neighbour queries. The
// learning itself happens entirely inside the external binary; this
// package formats arguments, runs the sub-commands and parses their output.
package fasttext
