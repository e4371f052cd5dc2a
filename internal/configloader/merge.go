package configloader

import "github.com/yaklabco/gomdpos/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Switches: override overwrites base if override sets them
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Filter != "" {
		result.Filter = override.Filter
	}
	if override.Output != "" {
		result.Output = override.Output
	}

	result.DetectLanguage = mergeSwitch(base.DetectLanguage, override.DetectLanguage)
	result.TaggedBlocks = mergeSwitch(base.TaggedBlocks, override.TaggedBlocks)
	result.Verify = mergeSwitch(base.Verify, override.Verify)
	result.Compact = mergeSwitch(base.Compact, override.Compact)

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

func mergeSwitch(base, override *bool) *bool {
	if override != nil {
		return override
	}
	return base
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
