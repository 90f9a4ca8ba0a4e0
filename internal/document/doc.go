// Package document models YAML documents as insertion-ordered trees.
//
// A tree is built from Mapping, Sequence, and scalar values (string, int,
// float64, bool, nil). Mapping keeps its entries in the order they were
// added and is converted to yaml.v3 nodes without any key sorting, which lets
// manifests keep the author's ordering through serialization.
package document
