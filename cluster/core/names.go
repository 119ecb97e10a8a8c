// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

// Stock capability identifiers negotiated by every process. The strings are
// opaque configuration: they are compared for equality and logged, nothing
// else. Emitting a capability-dependent behavior (for example a new wire
// format) before its gate is enabled would break older peers.
const (
	CapabilityWireFormatV2      = "WIRE_FORMAT_V2"
	CapabilityDeltaReplication  = "DELTA_REPLICATION"
	CapabilitySnapshotStreaming = "SNAPSHOT_STREAMING"
	CapabilityXXHashDigest      = "XXHASH_DIGEST"
	CapabilityMaterializedViews = "MATERIALIZED_VIEWS"
	CapabilityCounters          = "COUNTERS"
	CapabilitySecondaryIndexes  = "SECONDARY_INDEXES"
	CapabilityRoles             = "ROLES"
	CapabilityUDF               = "UDF"
	CapabilityCDC               = "CDC"
	CapabilityLWT               = "LWT"
	CapabilityRowLevelRepair    = "ROW_LEVEL_REPAIR"
	CapabilityTruncationTable   = "TRUNCATION_TABLE"
	CapabilitySeparateHintsConn = "HINTED_HANDOFF_SEPARATE_CONNECTION"
)

// DefaultCapabilities returns the capability names every freshly started
// process tracks.
func DefaultCapabilities() []string {
	return []string{
		CapabilityWireFormatV2,
		CapabilityDeltaReplication,
		CapabilitySnapshotStreaming,
		CapabilityXXHashDigest,
		CapabilityMaterializedViews,
		CapabilityCounters,
		CapabilitySecondaryIndexes,
		CapabilityRoles,
		CapabilityUDF,
		CapabilityCDC,
		CapabilityLWT,
		CapabilityRowLevelRepair,
		CapabilityTruncationTable,
		CapabilitySeparateHintsConn,
	}
}
