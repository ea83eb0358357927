/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	sferrors "github.com/suparena/storefront/errors"
	"github.com/suparena/storefront/predicate"
)

// macroRegex matches macros of the form {FieldName} in key patterns.
var macroRegex = regexp.MustCompile(`\{([^}]+)\}`)

// expandMacros resolves every macro in the key pattern against the entity's
// attributes and returns the fully expanded key attribute values.
func expandMacros(pattern map[string]string, entity any) (map[string]string, error) {
	expanded := make(map[string]string, len(pattern))
	for attr, tmpl := range pattern {
		val, err := expandTemplate(tmpl, entity)
		if err != nil {
			return nil, err
		}
		expanded[attr] = val
	}
	return expanded, nil
}

func expandTemplate(tmpl string, entity any) (string, error) {
	var expandErr error
	out := macroRegex.ReplaceAllStringFunc(tmpl, func(m string) string {
		field := m[1 : len(m)-1]
		val, ok := predicate.Attr(entity, field)
		if !ok {
			expandErr = fmt.Errorf("key template %q references missing field %s", tmpl, field)
			return m
		}
		return fmt.Sprintf("%v", val)
	})
	return out, expandErr
}

// macroFields lists the field names a template references.
func macroFields(tmpl string) []string {
	matches := macroRegex.FindAllStringSubmatch(tmpl, -1)
	fields := make([]string, 0, len(matches))
	for _, m := range matches {
		fields = append(fields, m[1])
	}
	return fields
}

// macroPrefix returns the literal prefix of a template up to its first macro,
// used for begins_with queries over a partition.
func macroPrefix(tmpl string) string {
	if i := strings.IndexByte(tmpl, '{'); i >= 0 {
		return tmpl[:i]
	}
	return tmpl
}

// keyFromID builds the primary key for an identity when both PK and SK
// templates reference no field other than ID. The second result is false
// when the key depends on other attributes and a type-index lookup is
// needed instead.
func keyFromID(pattern map[string]string, id string) (map[string]types.AttributeValue, bool) {
	key := make(map[string]types.AttributeValue, 2)
	for _, attr := range []string{"PK", "SK"} {
		tmpl, ok := pattern[attr]
		if !ok {
			return nil, false
		}
		for _, field := range macroFields(tmpl) {
			if field != "ID" {
				return nil, false
			}
		}
		key[attr] = &types.AttributeValueMemberS{
			Value: macroRegex.ReplaceAllString(tmpl, id),
		}
	}
	return key, true
}

// typeIndexSortKeyForID expands the SK1 template with the identity. The SK1
// template must be keyed on ID alone for identity lookups to work.
func typeIndexSortKeyForID(pattern map[string]string, id string) (string, error) {
	tmpl, ok := pattern["SK1"]
	if !ok {
		return "", sferrors.NewInvalidArgumentError("descriptor", "key pattern has no SK1 template")
	}
	for _, field := range macroFields(tmpl) {
		if field != "ID" {
			return "", sferrors.NewInvalidArgumentError("descriptor",
				fmt.Sprintf("SK1 template %q is not keyed on identity alone", tmpl))
		}
	}
	return macroRegex.ReplaceAllString(tmpl, id), nil
}

// primaryKeyFromExpanded projects PK and SK out of an expanded key map.
func primaryKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	key := make(map[string]types.AttributeValue, 2)
	for _, attr := range []string{"PK", "SK"} {
		val, ok := expanded[attr]
		if !ok {
			return nil, fmt.Errorf("expanded key map is missing %s", attr)
		}
		key[attr] = &types.AttributeValueMemberS{Value: val}
	}
	return key, nil
}

// primaryKeyFromItem projects PK and SK out of a stored item.
func primaryKeyFromItem(item map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	key := make(map[string]types.AttributeValue, 2)
	for _, attr := range []string{"PK", "SK"} {
		val, ok := item[attr]
		if !ok {
			return nil, fmt.Errorf("item is missing key attribute %s", attr)
		}
		key[attr] = val
	}
	return key, nil
}
