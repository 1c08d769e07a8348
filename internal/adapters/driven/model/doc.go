// Package model loads meta-model and instance documents into the domain
// object graph.
//
// Three document syntaxes are understood:
//
//   - Ecore XMI meta-models (.ecore)
//   - XMI instance documents (.xmi, .xml and any other extension)
//   - YAML or JSON documents (.yaml, .yml, .json) holding either a
//     "package" (meta-model) or a "model" (instances)
//
// Type references that cannot be resolved against the document itself or
// the shared registry become proxies, which the transformer lowers into
// placeholder classes.
package model
