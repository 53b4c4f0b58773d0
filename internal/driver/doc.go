/*
Package driver fans a set of single-operation plans out to concurrent
workers against a shared executor.

Every worker issues exactly one operation and prints one human-readable
outcome. Destinations for copy, compress, decompress and rename derive from
the source path and the worker number, for example test.txt_copy_3.
*/
package driver
