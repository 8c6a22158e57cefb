/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package attrvalue maps token streams to and from DynamoDB attribute values,
// so the same converters that speak JSON can persist items.
//
// Objects become M, arrays L, strings S, numbers N, booleans BOOL and null
// NULL. On read, B is exposed as a base64 string and SS, NS and BS as arrays.
package attrvalue
