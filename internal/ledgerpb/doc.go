// Package ledgerpb defines the wire contract of the ledger service.
//
// The service is described by hand (LedgerService_ServiceDesc) instead of by
// generated code: every request and response travels as a
// google.protobuf.Struct whose fields mirror the JSON shape of the Go types in
// messages.go. 64-bit integers are carried as decimal strings so that no value
// ever passes through a float.
//
//	service recordkeeper.ledger.LedgerService {
//	  rpc Ping(Struct) returns (Struct);
//	  rpc Challenge(Struct) returns (Struct);
//	  rpc Authenticate(Struct) returns (Struct);
//	  rpc CreateRecord(Struct) returns (Struct);   // auth
//	  rpc ReadRecord(Struct) returns (Struct);
//	  rpc UpdateRecord(Struct) returns (Struct);   // auth
//	  rpc DeleteRecord(Struct) returns (Struct);   // auth
//	  rpc ListRecords(Struct) returns (Struct);
//	  rpc CountRecords(Struct) returns (Struct);
//	  rpc ExportSnapshot(Struct) returns (Struct); // auth
//	}
package ledgerpb
