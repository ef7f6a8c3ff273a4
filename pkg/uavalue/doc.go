/*
Package uavalue defines the tagged attribute-value variant carried by
Variable and VariableType nodes: a scalar or array of one of the OPC UA
built-in types, plus LocalizedText for DisplayName/Description attributes.

Variant is a closed tagged union (Type selects which Go type Value legally
holds) rather than an interface hierarchy, the same way pkg/ids.NodeId is a
closed tagged union over its four identifier kinds — both follow the
teacher's habit of modeling a fixed, spec-closed set of variants as a
struct with an explicit kind tag instead of reaching for a third-party
"any value" library. Encoding/decoding to the OPC UA binary wire format is
out of scope; this package only needs to hold and compare values in
memory.
*/
package uavalue
